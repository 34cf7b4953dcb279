package mail

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

type AdminCodeData struct {
	Code       string
	TTLMinutes int
}

type LeadConfirmationData struct {
	Name     string
	Company  string
	Tier     string
	Industry string
}

type ProposalSentData struct {
	ClientName   string
	Company      string
	ProposalURL  string
	MonthlyPrice string
	SetupFee     string
}

type ProposalSignedData struct {
	ClientName   string
	BusinessName string
	MonthlyTotal string
	SetupTotal   string
	Addons       []string
}
