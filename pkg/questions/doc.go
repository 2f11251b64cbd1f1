// Package questions retrieves the follow-up questions shown in the survey
// summary. Client performs one GET per topic against a templated URL;
// Shared collapses concurrent lookups for the same topic into one upstream
// call.
package questions
