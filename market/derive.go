package market

import (
	"askora/ledger"
)

// CodeImage builds the code image of an actor kind under policy.
func CodeImage(kind string, p Policy) (ledger.CodeImage, error) {
	encoded, err := ledger.EncodeState(p)
	if err != nil {
		return nil, err
	}
	return append(ledger.CodeImage("askora/"+kind+"/v1\x00"), encoded...), nil
}

// RootInit is the derivation data of the Root.
type RootInit struct {
	AccountCode     ledger.CodeImage `cbor:"account_code"`
	QuestionCode    ledger.CodeImage `cbor:"question_code"`
	QuestionRefCode ledger.CodeImage `cbor:"question_ref_code"`
}

// AccountInit is the derivation data of an Account. Price, description and counters start zero.
type AccountInit struct {
	Owner           ledger.Address   `cbor:"owner"`
	Root            ledger.Address   `cbor:"root"`
	QuestionCode    ledger.CodeImage `cbor:"question_code"`
	QuestionRefCode ledger.CodeImage `cbor:"question_ref_code"`
}

// QuestionInit is the derivation data of a Question.
type QuestionInit struct {
	Account ledger.Address `cbor:"account"`
	ID      uint32         `cbor:"id"`
}

// QuestionRefInit is the derivation data of a QuestionRef.
type QuestionRefInit struct {
	OwnerAccount ledger.Address `cbor:"owner_account"`
	RefID        uint32         `cbor:"ref_id"`
}

func stateInit(code ledger.CodeImage, data interface{}) (ledger.StateInit, error) {
	encoded, err := ledger.EncodeState(data)
	if err != nil {
		return ledger.StateInit{}, err
	}
	return ledger.StateInit{Code: code, Data: encoded}, nil
}

func RootStateInit(rootCode ledger.CodeImage, init RootInit) (ledger.StateInit, error) {
	return stateInit(rootCode, init)
}

func AccountStateInit(accountCode ledger.CodeImage, init AccountInit) (ledger.StateInit, error) {
	return stateInit(accountCode, init)
}

func AccountAddress(accountCode ledger.CodeImage, init AccountInit) (ledger.Address, error) {
	si, err := AccountStateInit(accountCode, init)
	return si.Address(), err
}

func QuestionStateInit(questionCode ledger.CodeImage, account ledger.Address, id uint32) (ledger.StateInit, error) {
	return stateInit(questionCode, QuestionInit{Account: account, ID: id})
}

// QuestionAddress is where the Question with id under account lives.
func QuestionAddress(questionCode ledger.CodeImage, account ledger.Address, id uint32) (ledger.Address, error) {
	si, err := QuestionStateInit(questionCode, account, id)
	return si.Address(), err
}

func QuestionRefStateInit(refCode ledger.CodeImage, ownerAccount ledger.Address, refID uint32) (ledger.StateInit, error) {
	return stateInit(refCode, QuestionRefInit{OwnerAccount: ownerAccount, RefID: refID})
}

// QuestionRefAddress is where the QuestionRef refID of ownerAccount lives.
func QuestionRefAddress(refCode ledger.CodeImage, ownerAccount ledger.Address, refID uint32) (ledger.Address, error) {
	si, err := QuestionRefStateInit(refCode, ownerAccount, refID)
	return si.Address(), err
}
