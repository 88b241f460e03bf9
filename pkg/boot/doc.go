// Package boot provides the minimal fallback handler that makes primary
// affordances usable before the full runtime is ready, and the activation
// guard that keeps exactly one handler set live per page.
//
// The bootloader implements only the "toggle" action semantics. When the
// full hydration engine later becomes ready it consults the same Guard;
// whichever registration ran first wins, and the loser is skipped and
// logged — never both.
package boot
