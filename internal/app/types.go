package app

import "encoding/json"

// Conversation roles as the backend emits them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TraceStep records one node of the agent pipeline for the latest turn.
type TraceStep struct {
	Node        string    `json:"node"`
	Description string    `json:"description"`
	DocIDs      DocIDList `json:"doc_ids,omitempty"`
}

// DocIDList tolerates both string and numeric document ids on the wire.
// Older backend revisions emitted raw integer ids.
type DocIDList []string

func (d *DocIDList) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err == nil {
		ids := make(DocIDList, 0, len(raw))
		for _, n := range raw {
			ids = append(ids, n.String())
		}
		*d = ids
		return nil
	}
	var strs []string
	if err := json.Unmarshal(data, &strs); err != nil {
		return err
	}
	*d = DocIDList(strs)
	return nil
}

// User is the identity behind a verified access token.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Ticket is a support ticket the agent filed on the user's behalf.
type Ticket struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Severity    string `json:"severity"`
	CreatedAt   string `json:"created_at"`
}

// ChatResponse is the backend's answer to one chat turn. Conversation and
// Trace are authoritative snapshots, not deltas.
type ChatResponse struct {
	Reply        string      `json:"reply"`
	Conversation []Turn      `json:"conversation"`
	Trace        []TraceStep `json:"trace"`
}

// UploadResult describes an ingested document.
type UploadResult struct {
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id"`
	Chunks     int    `json:"chunks"`
	FileType   string `json:"file_type"`
}
