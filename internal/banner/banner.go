// Package banner converts job-posting banner images between their binary form
// and the reference stored on the row: an inline base64 data URI for uploads,
// or a plain URL when the image lives in external storage.
package banner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Image is a decoded banner: raw bytes plus their content type.
type Image struct {
	Data        []byte
	ContentType string
}

// ErrEmptyRef indicates the row carries no banner reference.
var ErrEmptyRef = errors.New("banner: empty reference")

const dataScheme = "data:"

// Encode packs an image into an inline data URI suitable for storage. The
// encoding is lossless; Decode returns the exact original bytes.
func Encode(img Image) string {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	return dataScheme + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Decode unpacks an inline data URI back into binary form. The content type is
// taken from the stored scheme.
func Decode(ref string) (Image, error) {
	if !strings.HasPrefix(ref, dataScheme) {
		return Image{}, fmt.Errorf("banner: not an inline reference: %.16s", ref)
	}
	meta, payload, ok := strings.Cut(ref[len(dataScheme):], ",")
	if !ok {
		return Image{}, errors.New("banner: malformed data uri")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("banner: decode inline data: %w", err)
	}
	return Image{Data: data, ContentType: contentType}, nil
}

// IsInline reports whether ref is an inline data URI rather than a stored URL.
func IsInline(ref string) bool {
	return strings.HasPrefix(ref, dataScheme)
}

// Filename derives the attachment filename for a posting title, keeping the
// extension consistent with the image content type.
func Filename(title string, img Image) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "banner"
	}
	ext := ".png"
	switch img.ContentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}
	return name + ext
}

// Resolver turns a stored banner reference back into binary form, fetching
// URL references over HTTP.
type Resolver struct {
	httpClient *http.Client
}

// NewResolver constructs a resolver; a nil client falls back to a default one.
func NewResolver(httpClient *http.Client) *Resolver {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Resolver{httpClient: httpClient}
}

// Resolve materializes the referenced banner. Inline references decode
// locally; URL references are downloaded.
func (r *Resolver) Resolve(ctx context.Context, ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Image{}, ErrEmptyRef
	}
	if IsInline(ref) {
		return Decode(ref)
	}
	return r.fetch(ctx, ref)
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (Image, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return Image{}, fmt.Errorf("banner: invalid reference url: %s", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return Image{}, fmt.Errorf("banner: build fetch request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("banner: fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Image{}, fmt.Errorf("banner: fetch status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Image{}, fmt.Errorf("banner: read image: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromPath(parsed.Path)
	}
	return Image{Data: data, ContentType: contentType}, nil
}

func contentTypeFromPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
