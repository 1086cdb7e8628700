package object

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"resumeboost-backend/internal/shared/util"
)

const sniffLen = 512

// UploadKey returns uploads/<owner key>/<random>_<sanitized name>.
func UploadKey(ownerID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join("uploads", util.OwnerKey(ownerID), randomToken()+"_"+name), nil
}

// Sniff peeks at the head of r to detect its MIME type. The returned reader
// yields the full stream including the peeked bytes.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head), br, nil
}

// CountingReader tallies bytes read through it.
type CountingReader struct {
	R io.Reader
	N int64
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	c.N += int64(n)
	return n, err
}

func randomToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b[:])
}
