package bucket

import (
	"reflect"
	"strings"
	"testing"

	errs "github.com/matzehuels/seleniumdl/pkg/errors"
)

const rootListing = `<?xml version='1.0' encoding='UTF-8'?>
<ListBucketResult xmlns="http://doc.s3.amazonaws.com/2006-03-01">
  <Name>selenium-release</Name>
  <Prefix></Prefix>
  <Marker></Marker>
  <Delimiter>/</Delimiter>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>index.html</Key>
    <LastModified>2016-04-19T16:30:07.000Z</LastModified>
    <ETag>"a37f3c3a1c6b6c2bbd4b01a5e8f2c0a1"</ETag>
    <Size>1024</Size>
  </Contents>
  <CommonPrefixes><Prefix>2.52/</Prefix></CommonPrefixes>
  <CommonPrefixes><Prefix>2.53/</Prefix></CommonPrefixes>
  <CommonPrefixes><Prefix>icons/</Prefix></CommonPrefixes>
</ListBucketResult>`

func TestParseListing(t *testing.T) {
	l, err := ParseListing(strings.NewReader(rootListing))
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if l.Name != "selenium-release" {
		t.Errorf("Name = %q, want selenium-release", l.Name)
	}
	if l.Delimiter != "/" {
		t.Errorf("Delimiter = %q, want /", l.Delimiter)
	}
	if l.IsTruncated {
		t.Error("IsTruncated = true, want false")
	}

	wantPrefixes := []string{"2.52/", "2.53/", "icons/"}
	if got := l.Prefixes(); !reflect.DeepEqual(got, wantPrefixes) {
		t.Errorf("Prefixes() = %v, want %v", got, wantPrefixes)
	}
	if got := l.Keys(); !reflect.DeepEqual(got, []string{"index.html"}) {
		t.Errorf("Keys() = %v, want [index.html]", got)
	}
	if l.Contents[0].Size != 1024 {
		t.Errorf("Size = %d, want 1024", l.Contents[0].Size)
	}
}

func TestParseListing_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"truncated", "<ListBucketResult><CommonPrefixes><Prefix>2.53/"},
		{"wrongRoot", "<Error><Code>AccessDenied</Code></Error>"},
		{"html", "<html><body>Service Unavailable</body></html>"},
		{"notXML", "{\"items\": []}"},
		{"trailingGarbage", "<ListBucketResult><CommonPrefixes><Prefix>2.53/</Prefix></CommonPrefixes></ListBucketResult><oops"},
		{"secondRoot", "<ListBucketResult></ListBucketResult><ListBucketResult></ListBucketResult>"},
		{"trailingText", "<ListBucketResult></ListBucketResult>junk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListing(strings.NewReader(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidListing) {
				t.Errorf("expected INVALID_LISTING, got %v", err)
			}
		})
	}
}

func TestParseListing_TrailingWhitespace(t *testing.T) {
	body := "<ListBucketResult><CommonPrefixes><Prefix>2.53/</Prefix></CommonPrefixes></ListBucketResult>\n\n<!-- served by GCS -->\n"
	l, err := ParseListing(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if got := l.Prefixes(); !reflect.DeepEqual(got, []string{"2.53/"}) {
		t.Errorf("Prefixes() = %v", got)
	}
}

func TestParseListing_Empty(t *testing.T) {
	l, err := ParseListing(strings.NewReader(`<ListBucketResult><Name>b</Name></ListBucketResult>`))
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(l.Prefixes()) != 0 || len(l.Keys()) != 0 {
		t.Errorf("expected empty listing, got %v %v", l.Prefixes(), l.Keys())
	}
}

func TestResumeMarker(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    string
	}{
		{"nextMarker", Listing{NextMarker: "2.40/", CommonPrefixes: []CommonPrefix{{"2.53/"}}}, "2.40/"},
		{"lastPrefix", Listing{CommonPrefixes: []CommonPrefix{{"2.39/"}, {"2.41/"}, {"2.40/"}}}, "2.41/"},
		{"keyAfterPrefix", Listing{Contents: []Object{{Key: "zzz.txt"}}, CommonPrefixes: []CommonPrefix{{"2.41/"}}}, "zzz.txt"},
		{"empty", Listing{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.resumeMarker(); got != tt.want {
				t.Errorf("resumeMarker() = %q, want %q", got, tt.want)
			}
		})
	}
}
