package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/types"
	"github.com/tieubaoca/feasibility-be/utils"
)

const DEFAULT_OCR_LANGUAGES = "eng+ara"

var pagesPattern = regexp.MustCompile(`Pages:\s+(\d+)`)

// PageExtractor returns the text of every non-empty page of a document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, filePath string) ([]types.PageDocument, error)
}

// PDFService extracts page text with poppler's pdftotext and falls back to
// tesseract OCR for scanned pages.
type PDFService struct {
	ocrLanguages string
	tempDir      string
	log          *zap.Logger
}

var _ PageExtractor = (*PDFService)(nil)

func NewPDFService(ocrLanguages string, log *zap.Logger) *PDFService {
	if ocrLanguages == "" {
		ocrLanguages = DEFAULT_OCR_LANGUAGES
	}
	if log == nil {
		log = zap.L()
	}
	return &PDFService{
		ocrLanguages: ocrLanguages,
		tempDir:      os.TempDir(),
		log:          log,
	}
}

// ExtractPages reads every page of the PDF. Pages without any text are
// skipped; a page whose extraction fails is logged and skipped.
func (s *PDFService) ExtractPages(ctx context.Context, filePath string) ([]types.PageDocument, error) {
	totalPages, err := getNumPages(ctx, filePath)
	if err != nil {
		return nil, err
	}
	s.log.Debug("extracting pdf", zap.String("file", filePath), zap.Int("pages", totalPages))

	title := filepath.Base(filePath)
	pages := make([]types.PageDocument, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := s.extractText(ctx, filePath, pageNum)
		if err != nil {
			s.log.Warn("failed to extract page", zap.String("file", filePath), zap.Int("page", pageNum), zap.Error(err))
			continue
		}
		text = cleanText(text)
		if text == "" {
			continue
		}
		pages = append(pages, types.PageDocument{
			Content: text,
			Metadata: types.DocumentMetadata{
				Title:      title,
				Source:     filePath,
				PageNum:    pageNum,
				TotalPages: totalPages,
			},
		})
	}

	return pages, nil
}

// extractText attempts to extract text from a specific page using multiple methods
func (s *PDFService) extractText(ctx context.Context, filePath string, pageNumber int) (string, error) {
	text, err := extractTextWithPdftotext(ctx, filePath, pageNumber)
	if err != nil || text == "" {
		text, err = s.extractTextWithTesseract(ctx, filePath, pageNumber)
		if err != nil {
			return "", fmt.Errorf("failed to extract text: %w", err)
		}
	}
	return text, nil
}

func extractTextWithPdftotext(ctx context.Context, filePath string, pageNumber int) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w", pageNumber, err)
	}
	if trimmed := strings.TrimSpace(out.String()); len(trimmed) > 0 {
		return trimmed, nil
	}
	return "", fmt.Errorf("got nothing at page %d", pageNumber)
}

// extractTextWithTesseract renders the page to PNG and runs OCR on it.
func (s *PDFService) extractTextWithTesseract(ctx context.Context, pdfPath string, pageNumber int) (string, error) {
	tempFolder, err := os.MkdirTemp(s.tempDir, utils.GetFileNameWithoutExt(pdfPath)+"-ocr-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempFolder)

	convertCmd := exec.CommandContext(ctx, "pdftoppm",
		"-f", strconv.Itoa(pageNumber), "-l", strconv.Itoa(pageNumber),
		"-r", "300", "-png", pdfPath, filepath.Join(tempFolder, "page"))
	if err := convertCmd.Run(); err != nil {
		return "", fmt.Errorf("converting page %d to image: %w", pageNumber, err)
	}
	images, err := filepath.Glob(filepath.Join(tempFolder, "page-*.png"))
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no image rendered for page %d", pageNumber)
	}

	ocrCmd := exec.CommandContext(ctx, "tesseract",
		images[0],
		"stdout",
		"-l", s.ocrLanguages,
		"--oem", "3", // LSTM engine
		"--psm", "3", // automatic page segmentation
	)
	var out bytes.Buffer
	ocrCmd.Stdout = &out
	if err := ocrCmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run tesseract: %w", err)
	}
	if trimmed := strings.TrimSpace(out.String()); len(trimmed) > 0 {
		return trimmed, nil
	}
	return "", fmt.Errorf("got nothing at page %d", pageNumber)
}

// getNumPages uses pdfinfo to get the total number of pages in a PDF file
func getNumPages(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %w", err)
	}
	return parseNumPages(&out)
}

func parseNumPages(out *bytes.Buffer) (int, error) {
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		if matches := pagesPattern.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}
	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

var cleanReplacer = strings.NewReplacer(
	"\u0000", "", // Null character
	"\ufffd", "", // Unicode replacement character
	"\u001b", "", // Escape character
	"\r", "",
	"\f", "\n",
	"\uf8ff", "", // Apple logo
	"\u2021", "", // double dagger
	"\u2020", "", // dagger
)

var multiSpace = regexp.MustCompile(`[ \t]{2,}`)

func cleanText(text string) string {
	cleaned := cleanReplacer.Replace(text)
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
