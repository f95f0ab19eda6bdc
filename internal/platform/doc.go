// Package platform contains filesystem glue around downloads: the target
// directory, the output template and locating the file yt-dlp wrote.
package platform
