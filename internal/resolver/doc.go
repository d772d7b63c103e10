// Package resolver orchestrates the identification cascade. Methods run in
// a fixed order of decreasing reliability, each with its own acceptance
// threshold, and a file that no method can place confidently is routed to
// manual review with every scored suggestion attached.
package resolver
