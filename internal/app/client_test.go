package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(ts.URL, 5*time.Second)
}

func TestClientLogin_SendsFormEncodedCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("Content-Type = %q, want form-encoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("username"); got != "ops@example.com" {
			t.Errorf("username = %q, want %q", got, "ops@example.com")
		}
		if got := r.PostForm.Get("password"); got != "hunter2" {
			t.Errorf("password = %q, want %q", got, "hunter2")
		}
		io.WriteString(w, `{"access_token":"tok-123","token_type":"bearer"}`)
	}))
	defer ts.Close()

	token, err := newTestClient(ts).Login(context.Background(), "ops@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q, want %q", token, "tok-123")
	}
}

func TestClientLogin_BadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Invalid credentials"}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Login(context.Background(), "ops@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "Invalid credentials" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestClientRegister_SendsJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"email":"new@example.com"`) {
			t.Errorf("body = %s, missing email", body)
		}
		io.WriteString(w, `{"access_token":"tok-new"}`)
	}))
	defer ts.Close()

	token, err := newTestClient(ts).Register(context.Background(), "new@example.com", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token != "tok-new" {
		t.Fatalf("token = %q", token)
	}
}

func TestClientWhoAmI_SendsBearerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, `{"id":7,"email":"ops@example.com"}`)
	}))
	defer ts.Close()

	user, err := newTestClient(ts).WhoAmI(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("WhoAmI: %v", err)
	}
	if user.ID != 7 || user.Email != "ops@example.com" {
		t.Fatalf("user = %+v", user)
	}
}

func TestClientChat_SendsTranscriptAndToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		for _, want := range []string{`"message":"and the next?"`, `"role":"user"`, `"role":"assistant"`} {
			if !strings.Contains(string(body), want) {
				t.Errorf("body = %s, missing %s", body, want)
			}
		}
		io.WriteString(w, `{"reply":"ok","conversation":[],"trace":[]}`)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	c.SetToken("tok-123")
	prior := []Turn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "answer"},
	}
	if _, err := c.Chat(context.Background(), "and the next?", prior); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestClientChat_NilConversationEncodesEmptyList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"conversation":[]`) {
			t.Errorf("body = %s, want empty conversation list, not null", body)
		}
		io.WriteString(w, `{"reply":"ok","conversation":[],"trace":[]}`)
	}))
	defer ts.Close()

	if _, err := newTestClient(ts).Chat(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestClientUploadDocument_Multipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close()
		if header.Filename != "policy.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "pdf bytes" {
			t.Errorf("file body = %q", data)
		}
		io.WriteString(w, `{"message":"uploaded","document_id":3,"chunks":12}`)
	}))
	defer ts.Close()

	res, err := newTestClient(ts).UploadDocument(context.Background(), "policy.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if res.DocumentID != 3 || res.Chunks != 12 {
		t.Fatalf("result = %+v", res)
	}
}

func TestClientUploadDocument_DetailSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Unsupported file type."}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).UploadDocument(context.Background(), "doc.pdf", strings.NewReader("x"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Detail != "Unsupported file type." {
		t.Fatalf("Detail = %q", apiErr.Detail)
	}
}

func TestClientTickets_DecodesBackendShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickets" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `[{"id":42,"title":"Checkout failing","description":"500s on submit","status":"open","severity":"high","created_at":"2026-08-30T12:00:00Z"}]`)
	}))
	defer ts.Close()

	tickets, err := newTestClient(ts).Tickets(context.Background())
	if err != nil {
		t.Fatalf("Tickets: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("len = %d", len(tickets))
	}
	got := tickets[0]
	if got.ID != 42 || got.Title != "Checkout failing" || got.Status != "open" || got.Severity != "high" {
		t.Fatalf("ticket = %+v", got)
	}
}

func TestDocIDList_AcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "strings", in: `{"node":"retrieve","description":"d","doc_ids":["doc_1","doc_2"]}`, want: []string{"doc_1", "doc_2"}},
		{name: "numbers", in: `{"node":"retrieve","description":"d","doc_ids":[3,14]}`, want: []string{"3", "14"}},
		{name: "absent", in: `{"node":"retrieve","description":"d"}`, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var step TraceStep
			if err := json.Unmarshal([]byte(tc.in), &step); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(step.DocIDs) != len(tc.want) {
				t.Fatalf("DocIDs = %v, want %v", step.DocIDs, tc.want)
			}
			for i := range tc.want {
				if step.DocIDs[i] != tc.want[i] {
					t.Fatalf("DocIDs = %v, want %v", step.DocIDs, tc.want)
				}
			}
		})
	}
}
