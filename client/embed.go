package client

import _ "embed"

// BootJS is the synchronous bootloader script.
//
// It is inlined into the head of every server-rendered page and also
// served standalone at "/_arbor/boot.js".
//go:embed boot.js
var BootJS []byte
