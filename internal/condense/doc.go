// Package condense reduces text to a character budget using structural and
// lexical heuristics only.
//
// Two algorithms are provided:
//
//   - Reducer ranks sentences by position, keyword presence and length, packs the
//     best ones into the budget and pads the remainder with head and tail
//     fragments of the input.
//   - Chunker splits long text into bounded chunks along paragraph, sentence and
//     hard-cut boundaries; Aggregator feeds those chunks to an external
//     ProcessFunc one at a time and recombines the results.
//
// All lengths are counted in runes. Every function in this package is pure
// except Aggregator, whose only side effects are the calls it makes to the
// supplied ProcessFunc.
package condense
