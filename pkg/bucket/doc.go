// Package bucket reads the public XML listing of a cloud storage bucket.
//
// # Overview
//
// Google Cloud Storage (and any S3-compatible store) answers
//
//	GET https://<bucket-host>/?delimiter=/&prefix=<dir>
//
// with a <ListBucketResult> document. With delimiter "/" the response is a
// single directory level: files in Contents, subdirectories collapsed into
// CommonPrefixes. seleniumdl uses two such listings, the bucket root to find
// minor-version directories ("2.52/", "2.53/") and one directory to find the
// release file inside it.
//
// # Usage
//
//	client := bucket.NewClient("https://selenium-release.storage.googleapis.com")
//	root, err := client.List(ctx, "")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(root.Prefixes())
//
// # Pagination
//
// Buckets return at most 1000 entries per page. [Client.List] follows
// truncated listings using NextMarker (or the last entry when the server
// omits it) and returns the merged result.
//
// # Errors
//
// Transport failures and 5xx responses are retried with exponential backoff
// (see [httputil.Retry]). Errors carry codes from the errors package:
// NETWORK_ERROR, NOT_FOUND, and INVALID_LISTING.
//
// [httputil.Retry]: github.com/matzehuels/seleniumdl/pkg/httputil.Retry
package bucket
