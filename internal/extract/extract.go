package extract

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"resumeboost-backend/internal/shared/storage/object"
)

// Placeholder is stored as the source text of binary uploads until real
// PDF/DOCX extraction exists.
const Placeholder = "文件已上传。MVP 当前对 PDF/DOCX 采用占位解析，请改用文本粘贴以获得最佳结果。"

// Text derives resume text from an uploaded file. Plain-text files are decoded
// as UTF-8 with invalid bytes dropped; every other format yields Placeholder.
func Text(fileName string, data []byte) string {
	if !isPlainText(fileName) {
		return Placeholder
	}
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

// FromStore reads a stored upload, derives its text and keeps a derived
// <key>.extracted.txt copy next to it.
func FromStore(ctx context.Context, store object.ObjectStore, fileKey, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", fileKey, err)
	}

	text := Text(fileName, raw)
	if _, err := store.SaveWithKey(ctx, fileKey+".extracted.txt", "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s: save derived copy: %w", fileKey, err)
	}
	return text, nil
}

func isPlainText(fileName string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(fileName)), ".txt")
}
