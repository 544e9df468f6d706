package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// File is an attachment for a multipart request.
type File struct {
	Name string
	Data []byte
}

// LoadFile reads path into a File named after its base name.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &File{Name: filepath.Base(path), Data: data}, nil
}

// Form accumulates a multipart body. The first write error sticks and is
// reported by Encode.
type Form struct {
	body   bytes.Buffer
	writer *multipart.Writer
	err    error
}

func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.body)
	return f
}

func (f *Form) Add(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.writer.WriteField(name, value)
}

func (f *Form) AddFile(name string, file *File) {
	if f.err != nil || file == nil {
		return
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(name), escapeQuotes(file.Name)))
	h.Set("Content-Type", contentTypeFor(file.Name))

	part, err := f.writer.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(file.Data)
}

// Encode closes the form and returns its body and content type.
func (f *Form) Encode() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.writer.Close(); err != nil {
		return nil, "", err
	}
	return bytes.NewReader(f.body.Bytes()), f.writer.FormDataContentType(), nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
