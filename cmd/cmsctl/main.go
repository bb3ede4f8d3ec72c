// Command cmsctl resolves and edits CMS content trees from the command line.
package main

func main() {
	execute()
}
