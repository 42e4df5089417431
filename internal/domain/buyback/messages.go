package buyback

import "fmt"

// CustomerMessage is the notification sent to the customer when status changes.
func CustomerMessage(r *Request) (title, message string, ok bool) {
	switch r.Status {
	case StatusApproved:
		return "Buyback Approved",
			fmt.Sprintf("Your buyback request for \"%s\" was approved. We will contact you for pickup and payment.", r.Title), true
	case StatusRejected:
		msg := fmt.Sprintf("Your buyback request for \"%s\" was not accepted.", r.Title)
		if r.AdminNotes != "" {
			msg += " Reason: " + r.AdminNotes
		}
		return "Buyback Rejected", msg, true
	case StatusCompleted:
		return "Buyback Completed",
			fmt.Sprintf("Payment for \"%s\" has been completed. Thank you!", r.Title), true
	}
	return "", "", false
}
