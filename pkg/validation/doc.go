// Package validation checks a survey snapshot before the summary is shown.
//
// Every rule runs on every call; nothing short-circuits. Failures are
// reported twice: Errors keeps one message per field group, so a topic
// section holds only the last failing message for that section, and Fields
// keeps one message per failing leaf path.
package validation
