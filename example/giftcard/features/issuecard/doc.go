// Package issuecard implements the command to issue a new gift card.
package issuecard
