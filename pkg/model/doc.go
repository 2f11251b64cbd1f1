// Package model defines the survey answers, the topic enumeration, and the
// ordered field catalog shared by the validation engine, the state store, and
// every renderer. Wire names keep the camelCase keys used by the browser form
// (`fullName`, `technologySection.favoriteLanguage`, ...) so JSON payloads,
// YAML answer files, and form posts all address fields the same way.
//
// The three topic sections are always present on SurveyAnswers. Only the one
// matching SurveyTopic is active; switching topics leaves the others intact.
// ActiveSection exposes the active group as a Section value for callers that
// prefer the tagged-union view.
package model
