// Command processor runs one ledger reconciliation pass and exits. It mails
// the report when SMTP is configured and exits 1 when discrepancies are found,
// so it can be driven from an external scheduler as well as the in-process cron.
package main

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"fiber-erp/config"
	"fiber-erp/database"
	"fiber-erp/logger"
	"fiber-erp/notification"
	"fiber-erp/services"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.LoadConfig()
	log := logger.Must(logger.New(config.APP_ENV, config.LOG_LEVEL))
	defer log.Sync() //nolint:errcheck

	db, err := database.Open()
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return 2
	}
	defer database.Close(db) //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := services.NewReconciliationService(db, logger.Named(log, "reconciliation")).Run(ctx)
	if err != nil {
		log.Error("reconciliation failed", zap.Error(err))
		return 2
	}
	fmt.Println(report.Summary())

	mailer := notification.NewEmailNotifier(notification.EmailConfig{
		Host:     config.SMTPHost,
		Port:     config.SMTPPort,
		Username: config.SMTPUser,
		Password: config.SMTPPassword,
		From:     config.SMTPFrom,
		To:       config.NotifyEmails,
	})
	if mailer != nil {
		subject := fmt.Sprintf("Ledger reconciliation %s: %d discrepancies", time.Now().Format("2006-01-02"), len(report.Discrepancies))
		if err := mailer.Send(subject, reportHTML(report)); err != nil {
			log.Warn("failed to mail reconciliation report", zap.Error(err))
		}
	}

	if !report.OK() {
		return 1
	}
	return 0
}

func reportHTML(r services.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Checked %d approved purchase orders.</p>", r.Checked)
	if r.OK() {
		b.WriteString("<p>No discrepancies found.</p>")
		return b.String()
	}
	b.WriteString(`<table border="1" cellpadding="4"><tr><th>PO Number</th><th>Problem</th><th>Lines</th><th>Postings</th></tr>`)
	for _, d := range r.Discrepancies {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%d</td></tr>",
			html.EscapeString(d.PoNumber), html.EscapeString(d.Problem), d.Lines, d.Postings)
	}
	b.WriteString("</table>")
	return b.String()
}
