package main

import (
	"testing"

	"fiber-erp/services"

	"github.com/stretchr/testify/require"
)

func TestReportHTML(t *testing.T) {
	clean := reportHTML(services.Report{Checked: 3})
	require.Contains(t, clean, "Checked 3")
	require.Contains(t, clean, "No discrepancies")

	dirty := reportHTML(services.Report{
		Checked: 1,
		Discrepancies: []services.Discrepancy{
			{PoNumber: "<PO-1>", Problem: "receiving warehouse missing", Lines: 2, Postings: 0},
		},
	})
	require.Contains(t, dirty, "&lt;PO-1&gt;")
	require.Contains(t, dirty, "<td>2</td><td>0</td>")
}
