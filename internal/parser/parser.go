// Package parser turns fetched overview, listing and detail documents into
// catalog records. Parsers are pure: the same document always yields the same
// records, and every selector they use comes from extract.Selectors.
package parser
