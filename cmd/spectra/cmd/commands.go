// SPDX-License-Identifier: MIT

package cmd

import "github.com/spf13/cobra"

var eigenCmd = &cobra.Command{
	Use:   "eigen <fixture.yaml>...",
	Short: "Eigenvalues of symmetric (or symmetric tridiagonal) matrices",
	Long: `Computes eigenvalues in descending order. Dense fixtures must be
symmetric; compact fixtures are read as symmetric tridiagonal matrices.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKind(kindEigen),
}

var svdCmd = &cobra.Command{
	Use:   "svd <fixture.yaml>...",
	Short: "Singular values of dense or bidiagonal matrices",
	Long: `Computes singular values in descending order. Compact fixtures are
read as bidiagonal matrices; 'layout: lower' puts off on the subdiagonal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKind(kindSVD),
}

func init() {
	rootCmd.AddCommand(eigenCmd)
	rootCmd.AddCommand(svdCmd)
}
