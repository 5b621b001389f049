package out

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sessionout "elearn/internal/modules/session/port/out"
	apperrors "elearn/internal/platform/errors"
)

type FileCookieStore struct {
	path string
}

func NewFileCookieStore(path string) sessionout.CookieStore {
	return &FileCookieStore{path: path}
}

func (s *FileCookieStore) Load(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.ErrNoSession
		}
		return "", fmt.Errorf("read session file: %w", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	scanner.Buffer(make([]byte, 0, 4096), len(payload)+1)
	if !scanner.Scan() {
		return "", apperrors.ErrNoSession
	}
	cookie := strings.TrimSpace(scanner.Text())
	if cookie == "" {
		return "", apperrors.ErrNoSession
	}
	return cookie, nil
}

func (s *FileCookieStore) Save(_ context.Context, cookie string) error {
	if strings.ContainsAny(cookie, "\r\n") {
		return fmt.Errorf("%w: cookie spans multiple lines", apperrors.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(cookie+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileCookieStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}
