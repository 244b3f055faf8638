package market

import "askora/ledger"

// Root
const (
	OpRootDeploy                 ledger.Op = 0x1783f31b
	OpCreateAccount              ledger.Op = 0x5f0ec1a3
	OpSponsoredCreateAccount     ledger.Op = 0x74385f77
	OpChangeSponsor              ledger.Op = 0x718b6b7d
	OpWithdraw                   ledger.Op = 0xa17c9cd6
	OpSponsoredReply             ledger.Op = 0xd9c2a251
	OpSponsoredReject            ledger.Op = 0x23b39f85
	OpSponsoredChangePrice       ledger.Op = 0xbef672d6
	OpSponsoredChangeDescription ledger.Op = 0xcc3612de
	OpQuestionCreated            ledger.Op = 0x5d2c2cd5
	OpQuestionReplied            ledger.Op = 0xb67beedd
	OpQuestionRejected           ledger.Op = 0xd7f75248
)

// Account
const (
	OpAccountDeploy         ledger.Op = 0x2e1c9a47
	OpSubmitQuestion        ledger.Op = 0x28b1e47a
	OpChangePrice           ledger.Op = 0xaaacc05b
	OpChangeDescription     ledger.Op = 0x901bca3e
	OpReply                 ledger.Op = 0xfda8c6e0
	OpReject                ledger.Op = 0xa5c566b9
	OpRelay                 ledger.Op = 0x4b3d2a11
	OpQuestionCreatedNotify ledger.Op = 0xb6d5bbc2
)

// Question
const (
	OpQuestionDeploy ledger.Op = 0x370d4b02
	OpQuestionReply  ledger.Op = 0x6a8e1f02
	OpQuestionReject ledger.Op = 0x6a8e1f03
	OpCancelExpired  ledger.Op = 0x5616c572
	OpLinkRef        ledger.Op = 0x3c51e0a9
)

// QuestionRef
const (
	OpRefDeploy              ledger.Op = 0x3c51e0aa
	OpNotifyQuestionDeployed ledger.Op = 0x3c51e0ab
	OpQuestionClosedNotify   ledger.Op = 0x3c51e0ac
)

// Value returns
const (
	OpExcess ledger.Op = 0xd53276db
	OpReward ledger.Op = 0x52e3c1f0
	OpRefund ledger.Op = 0x52e3c1f1
)

func init() {
	for op, name := range map[ledger.Op]string{
		OpRootDeploy:                 "root_deploy",
		OpCreateAccount:              "create_account",
		OpSponsoredCreateAccount:     "sponsored_create_account",
		OpChangeSponsor:              "change_sponsor",
		OpWithdraw:                   "withdraw",
		OpSponsoredReply:             "sponsored_reply",
		OpSponsoredReject:            "sponsored_reject",
		OpSponsoredChangePrice:       "sponsored_change_price",
		OpSponsoredChangeDescription: "sponsored_change_description",
		OpQuestionCreated:            "question_created",
		OpQuestionReplied:            "question_replied",
		OpQuestionRejected:           "question_rejected",
		OpAccountDeploy:              "account_deploy",
		OpSubmitQuestion:             "submit_question",
		OpChangePrice:                "change_price",
		OpChangeDescription:          "change_description",
		OpReply:                      "reply",
		OpReject:                     "reject",
		OpRelay:                      "relay",
		OpQuestionCreatedNotify:      "question_created_notify",
		OpQuestionDeploy:             "question_deploy",
		OpQuestionReply:              "question_reply",
		OpQuestionReject:             "question_reject",
		OpCancelExpired:              "cancel_expired",
		OpLinkRef:                    "link_ref",
		OpRefDeploy:                  "ref_deploy",
		OpNotifyQuestionDeployed:     "notify_question_deployed",
		OpQuestionClosedNotify:       "question_closed_notify",
		OpExcess:                     "excess",
		OpReward:                     "reward",
		OpRefund:                     "refund",
	} {
		ledger.RegisterOpName(op, name)
	}
}
