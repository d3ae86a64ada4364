package bucket

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	errs "github.com/matzehuels/seleniumdl/pkg/errors"
)

// Listing is a decoded <ListBucketResult> document as served by the
// S3-compatible XML API of Google Cloud Storage.
//
// With delimiter "/" the listing is one directory level deep: objects
// directly under Prefix appear in Contents and deeper "directories" are
// collapsed into CommonPrefixes.
type Listing struct {
	XMLName        xml.Name       `xml:"ListBucketResult"`
	Name           string         `xml:"Name"`
	Prefix         string         `xml:"Prefix"`
	Marker         string         `xml:"Marker"`
	NextMarker     string         `xml:"NextMarker"`
	Delimiter      string         `xml:"Delimiter"`
	IsTruncated    bool           `xml:"IsTruncated"`
	Contents       []Object       `xml:"Contents"`
	CommonPrefixes []CommonPrefix `xml:"CommonPrefixes"`
}

// Object is a single <Contents> entry.
type Object struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int64  `xml:"Size"`
}

// CommonPrefix is a pseudo-directory such as "2.53/".
type CommonPrefix struct {
	Prefix string `xml:"Prefix"`
}

// ParseListing decodes a bucket listing from r.
//
// Returns an INVALID_LISTING error when the document is not well-formed XML,
// its root element is not ListBucketResult, or anything but whitespace
// follows the root element.
func ParseListing(r io.Reader) (*Listing, error) {
	var l Listing
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&l); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidListing, err, "decode bucket listing")
	}
	if err := checkTrailing(dec); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidListing, err, "decode bucket listing")
	}
	return &l, nil
}

// checkTrailing consumes dec to EOF. Only whitespace, comments and
// processing instructions may follow the root element.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text %q after root", bytes.TrimSpace(t))
			}
		}
	}
}

// Prefixes returns the common prefixes in document order.
func (l *Listing) Prefixes() []string {
	out := make([]string, 0, len(l.CommonPrefixes))
	for _, p := range l.CommonPrefixes {
		out = append(out, p.Prefix)
	}
	return out
}

// Keys returns the object keys in document order.
func (l *Listing) Keys() []string {
	out := make([]string, 0, len(l.Contents))
	for _, o := range l.Contents {
		out = append(out, o.Key)
	}
	return out
}

// merge appends the entries of next and adopts its pagination state.
func (l *Listing) merge(next *Listing) {
	l.Contents = append(l.Contents, next.Contents...)
	l.CommonPrefixes = append(l.CommonPrefixes, next.CommonPrefixes...)
	l.IsTruncated = next.IsTruncated
	l.NextMarker = next.NextMarker
}

// resumeMarker returns the marker for the page after l. S3 semantics only
// guarantee NextMarker when a delimiter is set, so the greatest key or
// prefix seen so far is used when it is missing.
func (l *Listing) resumeMarker() string {
	if l.NextMarker != "" {
		return l.NextMarker
	}
	var last string
	for _, o := range l.Contents {
		last = max(last, o.Key)
	}
	for _, p := range l.CommonPrefixes {
		last = max(last, p.Prefix)
	}
	return last
}
