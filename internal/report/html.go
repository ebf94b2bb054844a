package report

import (
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"status": statusLabel,
	"amount": formatAmount,
	"pct":    formatPercent,
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Chama Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { text-align: center; margin-bottom: 30px; }
        .summary { background: #f0f0f0; padding: 20px; margin-bottom: 30px; }
        .summary div { display: inline-block; margin: 10px 20px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        .paid { color: green; font-weight: bold; }
        .unpaid { color: red; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Chama Financial Report</h1>
        <p>Generated on {{ .GeneratedAt.Format "2006-01-02 15:04" }}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <div><strong>Total Members:</strong> {{ .Summary.TotalMembers }}</div>
        <div><strong>Paid Members:</strong> {{ .Summary.PaidMembers }}</div>
        <div><strong>Unpaid Members:</strong> {{ .Summary.UnpaidMembers }}</div>
        <div><strong>Total Collected:</strong> {{ amount .Summary.TotalCollected }}</div>
        <div><strong>Expected Total:</strong> {{ amount .Summary.ExpectedTotal }}</div>
        <div><strong>Collected:</strong> {{ pct .Summary.CollectionPercentage }}</div>
        <div><strong>Members Paid:</strong> {{ pct .PaidRate }}</div>
    </div>

    <h2>Members Status</h2>
    <table>
        <thead>
            <tr><th>Name</th><th>Phone Number</th><th>Status</th><th>Total Paid</th></tr>
        </thead>
        <tbody>
            {{- range .Members }}
            <tr>
                <td>{{ .Name }}</td>
                <td>{{ .PhoneNumber }}</td>
                <td class="{{ if .HasPaid }}paid{{ else }}unpaid{{ end }}">{{ status .HasPaid }}</td>
                <td>{{ amount .TotalPaid }}</td>
            </tr>
            {{- end }}
        </tbody>
    </table>

    <h2>Recent Payments</h2>
    <table>
        <thead>
            <tr><th>Date</th><th>Member</th><th>Amount</th></tr>
        </thead>
        <tbody>
            {{- range .RecentPayments }}
            <tr>
                <td>{{ .Date.Format "2006-01-02 15:04" }}</td>
                <td>{{ .MemberName }}</td>
                <td>{{ amount .Amount }}</td>
            </tr>
            {{- end }}
        </tbody>
    </table>
</body>
</html>
`))

// WriteHTML renders the report as a standalone HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	return htmlTemplate.Execute(w, r)
}
