package payment

import "fmt"

const (
	replyNotRegistered = "Sorry, your number is not registered in our Chama system. Please contact the admin."
	replyError         = "Sorry, there was an error processing your message. Please try again later."
)

func replyAlreadyPaid(name string) string {
	return fmt.Sprintf("Hi %s! Our records show you've already paid. Thank you!", name)
}

func replyRecorded(name string) string {
	return fmt.Sprintf("Thank you %s! Your payment has been recorded. You're all set!", name)
}

func replyPaidUp(name string) string {
	return fmt.Sprintf("Hi %s! You're all paid up. Thank you!", name)
}

func replyPending(name string) string {
	return fmt.Sprintf("Hi %s! You still have a pending payment. Reply 'PAID' when you've made your contribution.", name)
}

func replyHelp(name string) string {
	return fmt.Sprintf("Hi %s! Reply 'PAID' if you've made your payment, or 'STATUS' to check your payment status.", name)
}

// ReminderText is the message sent to unpaid members by the reminder sweep.
func ReminderText(name string) string {
	return fmt.Sprintf("Hi %s! This is a friendly reminder that your Chama contribution is due. Please make your payment and reply 'PAID' to confirm. Thank you!", name)
}
