// Package workspace provides typed views over the files a promotion touches:
// package manifests, project records, path-alias tables, and the ownership
// record. Views read from and write back to a staged tree and keep the key
// order and untouched fields of the JSON documents they edit.
//
// The package also discovers projects by scanning for project.json files and
// exposes the pure lifecycle detection used by the promotion validator.
package workspace
