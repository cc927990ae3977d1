package upload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// A Store keeps the binary files of assets. One Folder per asset.
type Store interface {
	Folder(assetID int) Folder
	HMAC(assetID int, filename string, w int, h int, ts int64) string
	ServeHTTP(writer http.ResponseWriter, req *http.Request) // implementations will use HMAC and ParseURL
}

// One Folder for one asset.
type Folder interface {
	AssetID() int
	Delete(filename string) error
	Files() ([]os.FileInfo, error)
	HasFile(filename string) (bool, error)
	Upload(filename string, src io.Reader) error
}

func CleanFilename(filename string) (string, error) {
	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)
	if strings.Contains(filename, "/") || strings.Contains(filename, `\`) {
		return "", errors.New("filename contains a slash")
	}
	if filename == "" {
		return "", errors.New("filename is empty")
	}
	return filename, nil
}

// ParseURL parses an url like "123/foo.jpg" or "123/foo.jpg?w=400&h=200&ts=...&sig=...".
// The directory part is the asset id.
func ParseURL(u *url.URL) (assetID int, filename string, resize bool, w, h int, ts int64, sig []byte, err error) {

	dir, filename := path.Split(u.Path)
	dir = strings.Trim(dir, "/")
	filename = strings.TrimSpace(filename)

	assetID, err = strconv.Atoi(dir)
	if err != nil || assetID <= 0 {
		err = errors.New("no asset id in upload url")
		return
	}

	if filename == "" {
		err = errors.New("no filename in upload url")
		return
	}

	// resizing applies to JPEG files only

	if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") {
		w, _ = strconv.Atoi(u.Query().Get("w"))
		h, _ = strconv.Atoi(u.Query().Get("h"))
		resize = w != 0 || h != 0
	}

	ts, _ = strconv.ParseInt(u.Query().Get("ts"), 10, 64)
	sig = []byte(u.Query().Get("sig"))

	return
}

// HMAC signs a resize request. Store implementations use it to prevent
// DoS attacks on image resizing.
func HMAC(secret []byte, assetID int, filename string, w int, h int, ts int64) string {

	buf := make([]byte, 32)
	binary.PutVarint(buf[0:], int64(assetID))
	binary.PutVarint(buf[8:], ts)
	binary.PutVarint(buf[16:], int64(w))
	binary.PutVarint(buf[24:], int64(h))
	buf = append(buf, []byte(filename)...)

	hash := hmac.New(sha256.New, secret)
	hash.Write(buf)
	return base64.URLEncoding.EncodeToString(hash.Sum(nil))
}
