// Package textnorm converts raw page markup into canonical lowercase text.
//
// Normalization runs in a fixed order:
//  1. script, style, noscript and template elements are dropped
//  2. visible text of <body> is extracted, text nodes separated by spaces
//  3. NFKD decomposition, with combining marks removed
//  4. locale-invariant case folding
//  5. every Unicode space variant becomes an ASCII space
//  6. en and em dashes become a hyphen
//  7. whitespace runs collapse to one space, ends are trimmed
//
// Every step is total: malformed markup degrades to best-effort text and
// never produces an error. Keyword phrases are plain ASCII, so without this
// step "Apply—Now" or a non-breaking space would defeat literal matching.
package textnorm
