package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Credentials are the passwords attached to an encrypted document.
// Either password opens a document for scanning.
type Credentials struct {
	UserPassword  string `json:"user_password,omitempty"`
	OwnerPassword string `json:"owner_password,omitempty"`
}

// PasswordHandler turns encrypted documents into readable temporary
// copies.
type PasswordHandler struct {
	defaults *Credentials
}

// NewPasswordHandler creates a handler with no default credentials.
func NewPasswordHandler() *PasswordHandler {
	return &PasswordHandler{}
}

// SetDefaultCredentials sets credentials tried when a call provides
// none of its own.
func (h *PasswordHandler) SetDefaultCredentials(creds *Credentials) {
	h.defaults = creds
}

// IsEncrypted reports whether the document demands a password.
func (h *PasswordHandler) IsEncrypted(filename string) (bool, error) {
	if _, err := api.PageCountFile(filename); err != nil {
		if IsPasswordError(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check encryption status: %w", err)
	}
	return false, nil
}

// Decrypt produces a readable copy of an encrypted document and
// returns its path. Unencrypted documents come back unchanged. The
// caller removes the temporary copy with CleanupTempFile.
func (h *PasswordHandler) Decrypt(filename string, creds *Credentials) (string, error) {
	encrypted, err := h.IsEncrypted(filename)
	if err != nil {
		return "", err
	}
	if !encrypted {
		return filename, nil
	}

	tempName, err := h.createTempFile()
	if err != nil {
		return "", err
	}
	if err := api.DecryptFile(filename, tempName, h.decryptionConfig(creds)); err != nil {
		_ = os.Remove(tempName)
		return "", fmt.Errorf("failed to decrypt document: %w", err)
	}
	return tempName, nil
}

// ValidateCredentials checks that the credentials can open the
// document.
func (h *PasswordHandler) ValidateCredentials(filename string, creds *Credentials) error {
	if creds == nil {
		return errors.New("no credentials provided")
	}

	tempFile, err := os.CreateTemp("", "validate-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	_ = tempFile.Close()
	defer func() { _ = os.Remove(tempFile.Name()) }()

	if err := api.DecryptFile(filename, tempFile.Name(), h.decryptionConfig(creds)); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}
	return nil
}

// CleanupTempFile removes a temporary decrypted copy. Paths that do
// not look like our temp files are left alone.
func (h *PasswordHandler) CleanupTempFile(filename string) error {
	if filename == "" {
		return nil
	}
	if strings.Contains(filename, "decrypted-") && strings.HasSuffix(filename, ".pdf") {
		return os.Remove(filename)
	}
	return nil
}

func (h *PasswordHandler) decryptionConfig(creds *Credentials) *model.Configuration {
	config := model.NewDefaultConfiguration()
	if creds == nil {
		creds = h.defaults
	}
	if creds != nil {
		config.UserPW = creds.UserPassword
		config.OwnerPW = creds.OwnerPassword
	}
	return config
}

func (h *PasswordHandler) createTempFile() (string, error) {
	tempFile, err := os.CreateTemp("", "decrypted-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	_ = tempFile.Close()
	return tempFile.Name(), nil
}

// PasswordPrompt is the operator-facing message for a protected
// document.
func PasswordPrompt(filename string) string {
	caser := cases.Title(language.English)
	return fmt.Sprintf("%s %q is password protected, rerun with --password",
		caser.String("document"), filepath.Base(filename))
}

// IsPasswordError reports whether an error stems from encryption or
// missing credentials.
func IsPasswordError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	keywords := []string{
		"password",
		"encrypted",
		"decrypt",
		"authentication",
		"unauthorized",
		"invalid credentials",
	}
	for _, keyword := range keywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
