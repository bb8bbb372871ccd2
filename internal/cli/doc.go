// Package cli implements gamectl, the command-line front end of the button
// game.
//
// Every command is one-shot:
//
//	gamectl register <username>
//	gamectl login <username>
//	gamectl status <username>
//	gamectl claim <username>
//	gamectl shop <username>
//	gamectl buy <username> <item>
//	gamectl sell <username> <item>
//	gamectl leaderboard
//	gamectl set-points <username> <points>
//	gamectl import <file.csv>
//
// except play, which logs in once and then reads commands from stdin until
// exit. Commands that spend or earn points ask for the password.
package cli
