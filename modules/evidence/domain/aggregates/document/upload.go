package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrTooLarge        = serrors.NewError("INVALID_EVIDENCE_SIZE", "the file exceeds the upload limit", "Evidence.Errors.TooLarge")
	ErrEmpty           = serrors.NewError("INVALID_EVIDENCE_EMPTY", "the file is empty", "Evidence.Errors.Empty")
	ErrUnsupportedType = serrors.NewError("INVALID_EVIDENCE_TYPE", "this file type is not accepted as evidence", "Evidence.Errors.UnsupportedType")
	ErrUnknownOwner    = serrors.NewError("INVALID_EVIDENCE_OWNER", "the record the evidence belongs to does not exist", "Evidence.Errors.UnknownOwner")
)

// AllowedType is an accepted content type and the file extensions a
// client may name it with.
type AllowedType struct {
	MimeType   string
	Extensions []string
}

// AllowedTypes are matched against the sniffed content type. The file name
// must carry one of the extensions of the type it was accepted as.
var AllowedTypes = []AllowedType{
	{"application/pdf", []string{".pdf"}},
	{"image/png", []string{".png"}},
	{"image/jpeg", []string{".jpg", ".jpeg"}},
	{"text/csv", []string{".csv"}},
	{"text/plain", []string{".txt", ".log", ".md", ".csv"}},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []string{".xlsx"}},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []string{".docx"}},
	{"application/zip", []string{".zip"}},
}

// Upload is a file received from a client, fully read into memory.
type Upload struct {
	OwnerType OwnerType
	OwnerID   uuid.UUID
	Name      string
	Content   []byte
}

func (u Upload) Ok(maxSize int64) (serrors.ValidationErrors, bool) {
	errs := serrors.ValidationErrors{}
	if !u.OwnerType.Valid() {
		errs.Add("OwnerType", serrors.NewInvalidValueError("owner_type", fmt.Sprintf("must be one of %v", OwnerTypes)))
	}
	if u.OwnerID == uuid.Nil {
		errs.Add("OwnerID", serrors.NewFieldRequiredError("OwnerID", "Evidence.Fields.OwnerID"))
	}
	if strings.TrimSpace(u.Name) == "" {
		errs.Add("Name", serrors.NewFieldRequiredError("Name", "Evidence.Fields.Name"))
	}
	switch {
	case len(u.Content) == 0:
		errs.Add("File", ErrEmpty)
	case maxSize > 0 && int64(len(u.Content)) > maxSize:
		errs.Add("File", ErrTooLarge.WithTemplateData(map[string]any{"Max": maxSize}))
	}
	return errs, len(errs) == 0
}

// Detect sniffs the content type of a file called name. The sniffed type,
// or the closest ancestor of it that is allowed, must list the extension of
// name; a shell script named run.sh reads as text but is still refused.
func Detect(name string, content []byte) (string, error) {
	detected := mimetype.Detect(content)
	ext := strings.ToLower(filepath.Ext(name))
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range AllowedTypes {
			if m.Is(allowed.MimeType) && slices.Contains(allowed.Extensions, ext) {
				return allowed.MimeType, nil
			}
		}
	}
	return "", ErrUnsupportedType.WithTemplateData(map[string]any{"Type": detected.String()})
}

func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// CleanName strips directories a client may send along with the file name.
func CleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
