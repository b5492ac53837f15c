// Package shared holds cross-cutting utilities that belong to no single
// layer. Currently that is testutil, the shared test helpers. Nothing in
// here may contain domain logic or depend on other internal packages.
package shared
