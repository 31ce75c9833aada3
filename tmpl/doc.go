// Package tmpl renders text templates containing $-directives against a tree
// of named values.
//
// # Syntax
//
// A template is plain text with three directive forms:
//
//	$<path>                          substitute the String at path
//	$if [!]<path>: <body> [$end]     include body when path is true
//	$for <name> in <path>: <body>    repeat body for each element of path
//
// A path is a dotted member name such as user.address.city. It ends at the
// first space, line break or '$', so $a$b is two variables and $a. is the
// path "a.". A '$' that starts no identifier is written as is. Lines end in
// "\n" or "\r\n"; a one-line body never includes the carriage return.
//
// # Block Bodies
//
// When text follows the ':' of a block header on the same line, the body is
// the rest of that line, or up to an inline $end:
//
//	$if admin: (administrator)
//	$for t in tags: #$t $end and more
//
// Otherwise the body runs from the next line to the $end that closes the
// block, and the newline after that $end is consumed:
//
//	$for user in users:
//	- $user.name
//	$end
//
// Blocks nest to any depth up to [DefaultMaxDepth] or the depth set with
// [WithMaxDepth]. Each $end is matched to the block it closes, never simply
// to the first $end found. Lines holding only $end may follow one-line blocks
// as optional closers.
//
// # Values
//
// A [Value] is a Boolean, String, List or Object, or Absent when nothing is
// there. A [Context] is the root Object a template renders against. Contexts
// are immutable; [Context.Bind] returns a child scope without copying the
// parent, which is how $for binds its loop variable.
//
// Contexts are built with [NewBuilder], converted from Go values with
// [ContextFromNative], or decoded from YAML and JSON with [UnmarshalContext].
//
// # Rendering
//
//	c := tmpl.NewBuilder().String("name", "world").Build()
//	out, err := tmpl.Render(ctx, c, "hello $name")
//
// [Parse] validates a template once and caches the result, for templates
// rendered many times. The cache keeps the most recent [DefaultCacheSize]
// outcomes. Errors are a [*ParseError] with the position of the
// malformed directive, a [*VariableError] for a path that does not hold the
// required kind, or one of the package sentinels such as [ErrDepthExceeded].
//
// At [log.LevelTrace] a [Renderer] given [WithLogger] logs every directive it
// evaluates.
package tmpl
