// Package redeemcard implements the command to redeem an amount from a gift card.
package redeemcard
