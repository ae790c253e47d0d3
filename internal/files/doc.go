// Package files discovers price files on disk for the command line tool.
//
// A directory argument resolves to its most recently modified CSV or XLSX
// file:
//
//	discovery := files.NewDiscovery([]string{".csv", ".xlsx"})
//	path, err := discovery.Resolve("./data")
package files
