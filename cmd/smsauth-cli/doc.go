// Package main provides the entry point for smsauth-cli.
//
// smsauth-cli signs in to the School Management System backend and keeps
// the session token between invocations:
//
//	smsauth-cli login -e admin@school.com
//	smsauth-cli whoami -o json
//	smsauth-cli profile update --phone 555-0100
//	smsauth-cli shell
//
// Build with -tags smsdev to allow the offline development fallback.
package main
