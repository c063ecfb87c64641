package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Application wires the client, session manager and conversation together.
// Consumers receive it by explicit reference.
type Application struct {
	Config  Config
	Logger  *Logger
	Client  *Client
	Session *SessionManager
	Chat    *Conversation
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(DefaultLogWriter())
	client := NewClient(cfg.APIBase, time.Duration(cfg.TimeoutSec)*time.Second)
	session := NewSessionManager(client, NewFileTokenStore(""), logger)
	return &Application{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: session,
		Chat:    NewConversation(client, logger),
	}
}

// supported document types, mirroring what the backend accepts.
var uploadExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ValidateUploadPath refuses unsupported files locally, before any network
// call.
func ValidateUploadPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no file selected")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !uploadExtensions[ext] {
		return fmt.Errorf("unsupported file type %q: only pdf, png, jpg and jpeg are allowed", ext)
	}
	return nil
}

// UploadFile validates, opens and uploads one document.
func (a *Application) UploadFile(ctx context.Context, path string) (UploadResult, error) {
	if err := ValidateUploadPath(path); err != nil {
		return UploadResult{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return a.Client.UploadDocument(ctx, filepath.Base(path), f)
}
