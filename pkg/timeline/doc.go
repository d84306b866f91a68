// Package timeline provides a decode-time index from an ordered key, such
// as a record timestamp, to a value of the caller's choosing (a byte
// offset, or the decoded record itself), letting callers answer a time
// range query without rescanning the file. It is grounded on freyjadb's
// pkg/bptree.BPlusTree, generalized from its ad hoc int/string comparator
// to any cmp.Ordered key, and extended with a Range query that walks the
// leaf-link chain the original tree already maintained but never used.
package timeline
