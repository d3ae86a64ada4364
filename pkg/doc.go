// Package pkg holds the seleniumdl libraries.
//
// # Overview
//
// seleniumdl finds the newest Selenium standalone server published to the
// Selenium release bucket and optionally downloads it. The packages are:
//
//  1. [bucket] - paginated S3/GCS XML listing client
//  2. [selenium] - version resolution and download URL construction
//  3. [download] - atomic file download with checksum
//  4. [cache] - file, redis and no-op result caches
//  5. [config] - TOML configuration
//  6. [httputil], [errors], [observability], [buildinfo] - shared plumbing
//
// # Data flow
//
//	bucket root listing ("2.52/", "2.53/", ...)
//	         ↓
//	    [selenium.LatestMinor] (highest major.minor prefix)
//	         ↓
//	    "2.53/" listing
//	         ↓
//	    [selenium.FindVersion] (selenium-server-standalone-2.53.1.jar → 2.53.1)
//	         ↓
//	    {downloadUrl, version}
//
// Any failure along the way yields the fallback version instead.
//
// # Quick Start
//
//	client := bucket.NewClient(selenium.DefaultBaseURL)
//	info := selenium.NewResolver(client).Resolve(ctx, false)
//	fmt.Println(info.Version, info.DownloadURL)
//
// [bucket]: github.com/matzehuels/seleniumdl/pkg/bucket
// [selenium]: github.com/matzehuels/seleniumdl/pkg/selenium
// [selenium.LatestMinor]: github.com/matzehuels/seleniumdl/pkg/selenium#LatestMinor
// [selenium.FindVersion]: github.com/matzehuels/seleniumdl/pkg/selenium#FindVersion
// [download]: github.com/matzehuels/seleniumdl/pkg/download
// [cache]: github.com/matzehuels/seleniumdl/pkg/cache
// [config]: github.com/matzehuels/seleniumdl/pkg/config
// [httputil]: github.com/matzehuels/seleniumdl/pkg/httputil
// [errors]: github.com/matzehuels/seleniumdl/pkg/errors
// [observability]: github.com/matzehuels/seleniumdl/pkg/observability
// [buildinfo]: github.com/matzehuels/seleniumdl/pkg/buildinfo
package pkg
