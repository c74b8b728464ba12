// Package resume reads the plain text of a resume so the skill profile can be
// derived from it.
package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoDocumentBody = errors.New("docx has no word/document.xml")

const documentPart = "word/document.xml"

// Load returns the text of a .docx, .pdf or plain text resume. Anything that
// is not docx or pdf is read as text.
func Load(path string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		text, err = loadDocx(path)
	case ".pdf":
		text, err = loadPDF(path)
	default:
		text, err = loadText(path)
	}
	if err != nil {
		return "", fmt.Errorf("read resume %s: %w", path, err)
	}
	return text, nil
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

func loadPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	for _, f := range archive.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return paragraphs(rc)
	}
	return "", ErrNoDocumentBody
}

// paragraphs joins the text runs of every w:p element, one space between
// paragraphs.
func paragraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		out     []string
		current strings.Builder
		inText  bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString(" ")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				out = append(out, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return strings.Join(out, " "), nil
}
