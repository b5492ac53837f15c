// Package files stages the uploaded source exports on disk.
//
// Each browser session gets its own staging directory under the uploads dir,
// with one file per input slot (enrollment, monthly, sites). Re-uploading a
// slot replaces the previous file; generation reads whatever is currently
// staged.
package files
