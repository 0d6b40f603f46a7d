// Package writers turns titration state into serialized reports.
//
// Writers own all presentation knowledge (text tables, TSV/CSV/JSON);
// core/ stays domain-only and app stays orchestration-only. JSON goes
// through pkg/api (v1) for a stable wire format.
package writers
