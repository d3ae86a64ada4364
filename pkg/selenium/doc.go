// Package selenium resolves the latest Selenium standalone server release.
//
// # Overview
//
// Releases are published to a public bucket grouped by minor version:
//
//	https://selenium-release.storage.googleapis.com/2.53/selenium-server-standalone-2.53.1.jar
//
// A [Resolver] reads the bucket root listing, picks the highest
// "major.minor/" prefix by semantic version, lists that prefix, and reads
// the full version off the standalone jar's file name. The download URL is
// then built from an [Artifact] template.
//
// # Usage
//
//	client := bucket.NewClient(selenium.DefaultBaseURL)
//	r := selenium.NewResolver(client, selenium.WithLogger(logger))
//
//	info := r.Resolve(ctx, false)
//	fmt.Println(info.Version, info.DownloadURL)
//
// # Fallback
//
// [Resolver.Resolve] never returns an error. If either listing cannot be
// fetched or parsed, it logs a warning and reports [FallbackVersion]
// ("2.53.0") with DownloadInfo.Fallback set. Use [Resolver.LatestVersion]
// when the caller needs the error.
//
// # Caching
//
// Successful resolutions can be cached with [WithCache]; fallbacks are never
// cached, so a transient outage does not pin the fallback version.
package selenium
