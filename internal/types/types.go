package types

// SpecialistID identifies one registered data-source specialist
type SpecialistID string

const (
	// SpecialistDocument answers from the indexed document corpus
	SpecialistDocument SpecialistID = "document"

	// SpecialistSalesforce answers from the Salesforce warehouse dataset
	SpecialistSalesforce SpecialistID = "salesforce"

	// SpecialistDomo answers from the Domo pod-metrics dataset
	SpecialistDomo SpecialistID = "domo"
)

// RouteHint is an optional precomputed routing hint attached to a question
type RouteHint string

const (
	HintNone       RouteHint = ""
	HintDocument   RouteHint = "document"
	HintSalesforce RouteHint = "salesforce"
	HintDomo       RouteHint = "domo"
)

// Question is one user turn. It owns nothing downstream and is discarded
// after the turn completes.
type Question struct {
	Text string    `json:"text"`
	Hint RouteHint `json:"hint,omitempty"`
}

// RoutingDecision is the result of classification: exactly one specialist,
// or the terminal AskSeparately outcome. Never zero and never more than one.
type RoutingDecision struct {
	Specialist    SpecialistID `json:"specialist,omitempty"`
	AskSeparately bool         `json:"askSeparately,omitempty"`

	// Strategy names the classification tier that produced the decision
	Strategy string `json:"strategy,omitempty"`
}

// RetrievalQuery is constructed fresh per specialist invocation
type RetrievalQuery struct {
	QueryText    string
	SourceFilter string
	TopK         int
}

// SpecialistAnswer is produced once per specialist invocation and immutable
// once returned. Fields carries extracted cross-reference values (pod_id,
// account_name, total_arr, ...) the compose engine may need.
type SpecialistAnswer struct {
	Specialist SpecialistID      `json:"specialist"`
	Narrative  string            `json:"narrative"`
	Fields     map[string]string `json:"fields"`
}

// CompositeAnswer joins a primary answer with an optional secondary lookup
// keyed by a cross-reference field from the primary.
type CompositeAnswer struct {
	Primary   *SpecialistAnswer `json:"primary"`
	Secondary *SpecialistAnswer `json:"secondary,omitempty"`
	Derived   map[string]string `json:"derived"`
	FinalText string            `json:"finalText"`
}

// FieldPodID is the cross-reference key that triggers the pod join
const FieldPodID = "pod_id"

// AskSeparatelyReply is the canned terminal reply for multi-source questions
const AskSeparatelyReply = "Please ask about the document, Salesforce data, or Domo data separately."
