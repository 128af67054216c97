// Package expression compiles step patterns into anchored matchers.
//
// Two pattern forms are supported:
//
//   - Expressions: "I have {int} cukes" with {name} placeholders expanded
//     from the parameter types registered at compile time, plus optional
//     text "(s)" and word alternation "this/that".
//   - Raw regexps, written slash-delimited: "/^I see (\d+) errors$/".
//     Capture groups whose source equals a parameter type's pattern are
//     coerced through types marked PreferForRegexpMatch.
//
// A compiled matcher is derived once from the parameter types visible at
// compile time; later parameter type changes never recompile it.
//
// The package also generates snippet expressions for undefined step texts
// (see Generate), replacing spans matched by UseForSnippets parameter types
// with placeholders.
package expression
