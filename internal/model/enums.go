package model

import "KolBD/internal/pkg/enum"

type UserRole string

var (
	RoleAdmin  = enum.New(UserRole("admin"))
	RoleMember = enum.New(UserRole("member"))
)

func (r UserRole) IsValid() bool { return enum.IsValid(r) }

// KOLStatus 外联流程中的 KOL 状态
type KOLStatus string

var (
	KOLStatusNew           = enum.New(KOLStatus("new"))
	KOLStatusContacted     = enum.New(KOLStatus("contacted"))
	KOLStatusReplied       = enum.New(KOLStatus("replied"))
	KOLStatusNegotiating   = enum.New(KOLStatus("negotiating"))
	KOLStatusCooperating   = enum.New(KOLStatus("cooperating"))
	KOLStatusRejected      = enum.New(KOLStatus("rejected"))
	KOLStatusNotInterested = enum.New(KOLStatus("not_interested"))
)

func (s KOLStatus) IsValid() bool { return enum.IsValid(s) }

type ContentCategory string

var (
	CategoryContractTrading = enum.New(ContentCategory("contract_trading"))
	CategoryCryptoTrading   = enum.New(ContentCategory("crypto_trading"))
	CategoryWeb3            = enum.New(ContentCategory("web3"))
	CategoryUnknown         = enum.New(ContentCategory("unknown"))
)

func (c ContentCategory) IsValid() bool { return enum.IsValid(c) }

type TemplateCategory string

var (
	TemplateInitial       = enum.New(TemplateCategory("initial"))
	TemplateFollowup      = enum.New(TemplateCategory("followup"))
	TemplateNegotiation   = enum.New(TemplateCategory("negotiation"))
	TemplateCollaboration = enum.New(TemplateCategory("collaboration"))
	TemplateMaintenance   = enum.New(TemplateCategory("maintenance"))
)

func (c TemplateCategory) IsValid() bool { return enum.IsValid(c) }

type ContactType string

var (
	ContactDM    = enum.New(ContactType("dm"))
	ContactReply = enum.New(ContactType("reply"))
	ContactEmail = enum.New(ContactType("email"))
	ContactOther = enum.New(ContactType("other"))
)

func (t ContactType) IsValid() bool { return enum.IsValid(t) }

type ContactStatus string

var (
	ContactSent       = enum.New(ContactStatus("sent"))
	ContactReplied    = enum.New(ContactStatus("replied"))
	ContactNoResponse = enum.New(ContactStatus("no_response"))
)

func (s ContactStatus) IsValid() bool { return enum.IsValid(s) }

type Sentiment string

var (
	SentimentPositive = enum.New(Sentiment("positive"))
	SentimentNeutral  = enum.New(Sentiment("neutral"))
	SentimentNegative = enum.New(Sentiment("negative"))
)

func (s Sentiment) IsValid() bool { return enum.IsValid(s) }
