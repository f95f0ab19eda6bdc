// Package bot implements the chat front end: a per-chat conversation
// state machine on top of the download service, and the Telegram
// transport that feeds it.
package bot
