package domain

// ComputedKeyPrefix namespaces computed-variable entries inside an
// answer set so they never collide with question IDs.
const ComputedKeyPrefix = "_cv."

// TriggerPageLeave is the only supported trigger type.
const TriggerPageLeave = "on_page_leave"

type ComputedTrigger struct {
	Type   string `json:"type"`
	PageID string `json:"pageId"`
}

// ComputedInput maps a question's answer onto a request parameter.
type ComputedInput struct {
	QuestionID string `json:"questionId"`
	ParamName  string `json:"paramName"`
}

// ComputedOutput maps a response key onto an internal variable ID.
type ComputedOutput struct {
	ResponseKey string `json:"responseKey"`
	VariableID  string `json:"variableId"`
	Label       string `json:"label,omitempty"`
}

// ComputedVariable calls an external endpoint on page leave and feeds
// the result back into the answer set under _cv.<variableId> keys.
// On timeout or any error the fallback values are used instead, so a
// flaky endpoint never blocks navigation.
type ComputedVariable struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Endpoint       string            `json:"endpoint"`
	Trigger        ComputedTrigger   `json:"trigger"`
	InputMapping   []ComputedInput   `json:"inputMapping"`
	OutputMapping  []ComputedOutput  `json:"outputMapping"`
	FallbackValues map[string]string `json:"fallbackValues,omitempty"`
	TimeoutMS      int               `json:"timeout,omitempty"`
	Enabled        bool              `json:"enabled"`
}
