package market

import "askora/ledger"

type RootDeploy struct {
	// Sponsor may be zero, meaning no sponsor.
	Sponsor ledger.Address `cbor:"sponsor"`
}

type ChangeSponsor struct {
	Sponsor ledger.Address `cbor:"sponsor"`
}

type CreateAccount struct {
	MinPrice    ledger.Amount `cbor:"min_price"`
	Description string        `cbor:"description"`
}

type SponsoredCreateAccount struct {
	Owner       ledger.Address `cbor:"owner"`
	MinPrice    ledger.Amount  `cbor:"min_price"`
	Description string         `cbor:"description"`
}

type SponsoredReply struct {
	Owner   ledger.Address `cbor:"owner"`
	ID      uint32         `cbor:"id"`
	Content string         `cbor:"content"`
}

type SponsoredReject struct {
	Owner ledger.Address `cbor:"owner"`
	ID    uint32         `cbor:"id"`
}

type SponsoredChangePrice struct {
	Owner    ledger.Address `cbor:"owner"`
	MinPrice ledger.Amount  `cbor:"min_price"`
}

type SponsoredChangeDescription struct {
	Owner       ledger.Address `cbor:"owner"`
	Description string         `cbor:"description"`
}

type AccountDeploy struct {
	MinPrice    ledger.Amount  `cbor:"min_price"`
	Description string         `cbor:"description"`
	ResponseTo  ledger.Address `cbor:"response_to"`
}

type SubmitQuestion struct {
	Content string `cbor:"content"`
}

type ChangePrice struct {
	MinPrice ledger.Amount `cbor:"min_price"`
}

type ChangeDescription struct {
	Description string `cbor:"description"`
}

type Reply struct {
	ID      uint32 `cbor:"id"`
	Content string `cbor:"content"`
}

type Reject struct {
	ID uint32 `cbor:"id"`
}

// Relay carries an owner action forwarded by Root on behalf of the sponsor.
type Relay struct {
	Owner      ledger.Address `cbor:"owner"`
	Action     ledger.Body    `cbor:"action"`
	ResponseTo ledger.Address `cbor:"response_to"`
}

// QuestionCreatedNotify names the question by its account and id. Owner lets the receiver
// recompute the account address.
type QuestionCreatedNotify struct {
	Account ledger.Address `cbor:"account"`
	Owner   ledger.Address `cbor:"owner"`
	ID      uint32         `cbor:"id"`
}

type QuestionDeploy struct {
	Submitter            ledger.Address   `cbor:"submitter"`
	SubmitterAccountInit ledger.StateInit `cbor:"submitter_account_init"`
	Owner                ledger.Address   `cbor:"owner"`
	Root                 ledger.Address   `cbor:"root"`
	MinPrice             ledger.Amount    `cbor:"min_price"`
	Content              string           `cbor:"content"`
	QuestionRefCode      ledger.CodeImage `cbor:"question_ref_code"`
}

type QuestionReply struct {
	Content    string         `cbor:"content"`
	ResponseTo ledger.Address `cbor:"response_to"`
}

type QuestionReject struct {
	ResponseTo ledger.Address `cbor:"response_to"`
}

type LinkRef struct {
	RefID uint32 `cbor:"ref_id"`
}

type RefDeploy struct {
	Account      ledger.Address   `cbor:"account"`
	ID           uint32           `cbor:"id"`
	QuestionCode ledger.CodeImage `cbor:"question_code"`
}

type NotifyQuestionDeployed struct {
	Question ledger.Address `cbor:"question"`
}

type QuestionClosedNotify struct {
	Rejected bool `cbor:"rejected"`
}

// QuestionEvent accompanies the fee notifications sent to Root.
type QuestionEvent struct {
	Account ledger.Address `cbor:"account"`
	ID      uint32         `cbor:"id"`
}
