// Package prompt talks to the user through huh forms.
//
// Terminal implements the swap package's Prompter and Notifier. Alerts
// are drawn as a box styled from the embedded theme.yaml, green on black
// by default; on terminals without color the box is drawn plain.
package prompt
