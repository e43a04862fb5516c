// Package section defines the byte-exact layouts of the Ogawa archive format.
//
// The package holds no node graph. It only knows how the fixed-size and
// bit-packed fields are laid out, and how to read or append them:
//
//  1. FileHeader: the 16-byte file prefix
//  2. Pointer: the tagged 64-bit child reference
//  3. PropertyInfo: the packed u32 property descriptor word
//  4. SizeHint and HeaderReader: variable-width header integers
//  5. Metadata, indexed metadata and time-sampling tables
//
// # File Layout
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Magic "Ogawa" (5 bytes)                                 │
//	│ Write flag (1 byte): 0xFF when the archive is complete  │
//	│ Version (2 bytes): major, minor                         │
//	│ Root pointer (8 bytes): offset of the root Group        │
//	├─────────────────────────────────────────────────────────┤
//	│ Records, reachable only through pointers:               │
//	│  - Group: u64 child_count, child_count × u64 pointers   │
//	│  - Data:  u64 byte_length, byte_length raw bytes        │
//	└─────────────────────────────────────────────────────────┘
//
// A pointer with bit 63 set references a Data record; with bit 63 clear it
// references a Group record. The low 63 bits are the byte offset. Offset 0
// stands for an empty record.
//
// # Archive Header Slots
//
// The root group carries six slots, in order:
//
//	Slot | Kind  | Content
//	-----|-------|---------------------------------------------
//	0    | Data  | u32 archive version
//	1    | Data  | u32 file version
//	2    | Group | root object subtree
//	3    | Data  | archive metadata, "k=v;k=v"
//	4    | Data  | time-sampling table
//	5    | Data  | indexed metadata table, (u8 len, bytes)*
//
// # Property Descriptors
//
// A property record starts with a PropertyInfo word. For scalar and array
// properties it is followed by next_sample_index, optionally the first and
// last changed indices, optionally a time-sampling index, then the name
// length and name. Compound properties carry only the name length and name.
// All variable-width fields use the width selected by the word's size hint.
//
// # Thread Safety
//
// All functions are pure. HeaderReader is a cursor and must not be shared
// between goroutines.
package section
