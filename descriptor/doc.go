// Package descriptor parses configuration descriptors.
//
// A descriptor is line-oriented text. Each line is either a comment, whose
// first non-whitespace character is '#', or an entry of at least three
// whitespace-separated tokens:
//
//	# key                          type  default
//	vmm.idman.password.algorithm   int   2
//	vmm.idman.password.length      int   16
//
// [Parse] folds the lines into a [List], an immutable sequence of validated
// [Entry] values in file order. The position of an entry in the list is its
// enumeration ordinal and its value-table row in generated code, so a List is
// never reordered.
//
// Each entry derives two identifiers: [Entry.Identifier] ("CONFIG_" plus the
// upper-cased key with '.' replaced by '_') and [Entry.TypeConstant]
// ("CONFIG_TYPE_" plus the upper-cased type). Keys and types are restricted
// at parse time to characters that survive this transform as valid C
// identifiers.
//
// Repeated keys are kept. [List.Lookup] resolves to the first occurrence,
// matching the generated lookup construct.
package descriptor
