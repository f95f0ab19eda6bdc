// Package model defines domain data structures shared by the bot and the CLI:
// media metadata, formats, proxy endpoints, download requests, progress events
// and session state enums.
package model
