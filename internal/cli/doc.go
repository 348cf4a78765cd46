// Package cli implements the promptctl command tree: the default one-shot
// generate command, plus the serve and models subcommands.
package cli
