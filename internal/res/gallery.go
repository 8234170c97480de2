package res

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ScanGallery returns the src attribute of every <img> element in an HTML
// document, in document order. Empty sources are skipped; duplicates are kept
// because a gallery may deliberately repeat an image.
func ScanGallery(r io.Reader) ([]string, error) {
	var srcs []string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return srcs, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Img {
				continue
			}
			for _, a := range tok.Attr {
				if strings.EqualFold(a.Key, "src") {
					if src := strings.TrimSpace(a.Val); src != "" {
						srcs = append(srcs, src)
					}
					break
				}
			}
		}
	}
}
