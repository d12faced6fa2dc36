package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// ToText converts a file input to plain text so the same extraction logic
// runs regardless of input format. PDF conversion goes through Gemini;
// DOCX is read directly from the document archive. Anything else fails
// with model.ErrUnsupportedFormat.
func ToText(ctx context.Context, path string, gemini adapter.Gemini) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read input file", goerr.Value("path", path))
		}
		return string(data), nil

	case ".pdf":
		return pdfToText(ctx, path, gemini)

	case ".docx":
		return docxToText(path)

	default:
		return "", goerr.Wrap(model.ErrUnsupportedFormat, "cannot convert file to text",
			goerr.Value("path", path),
			goerr.Value("extension", filepath.Ext(path)))
	}
}

const pdfPrompt = "Transcribe the full text content of this document. Output only the text, no commentary."

func pdfToText(ctx context.Context, path string, gemini adapter.Gemini) (string, error) {
	if gemini == nil {
		return "", goerr.Wrap(model.ErrUnsupportedFormat, "PDF conversion requires the AI backend", goerr.Value("path", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read input file", goerr.Value("path", path))
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: data}},
				{Text: pdfPrompt},
			},
		},
	}

	resp, err := gemini.GenerateContent(ctx, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", goerr.Wrap(err, "PDF conversion failed", goerr.Value("path", path))
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(model.ErrEmptyInput, "PDF produced no text", goerr.Value("path", path))
	}
	return text, nil
}

var (
	reDocxTag   = regexp.MustCompile(`<[^>]+>`)
	reParagraph = regexp.MustCompile(`</w:p>`)
)

// docxToText pulls the main document part out of the OOXML archive and
// strips markup. Good enough for requirement text; formatting is not
// preserved.
func docxToText(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", goerr.Wrap(model.ErrUnsupportedFormat, "not a valid docx archive", goerr.Value("path", path))
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", goerr.Wrap(err, "failed to open document part", goerr.Value("path", path))
		}
		defer rc.Close()

		var sb strings.Builder
		buf := make([]byte, 32*1024)
		for {
			n, readErr := rc.Read(buf)
			sb.Write(buf[:n])
			if readErr != nil {
				break
			}
		}

		text := reParagraph.ReplaceAllString(sb.String(), "\n")
		text = reDocxTag.ReplaceAllString(text, "")
		return text, nil
	}

	return "", goerr.Wrap(model.ErrUnsupportedFormat, "docx has no document part", goerr.Value("path", path))
}
