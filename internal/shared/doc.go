// Package shared holds code used by several packages that belongs to none of
// them. Today that is only the testutil subpackage:
//
//   - BufferedSlogHandler and NewTestLogger capture log records so tests can
//     assert on messages and attributes.
//   - FakeLeetCode and FakeCodeforces are httptest servers serving fixed
//     profile fixtures for the fetcher, pipeline and CLI tests.
//
// Nothing in this tree may import business packages, so that every package
// can use it from its tests.
package shared
