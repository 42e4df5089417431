package returns

import "fmt"

var buyerMessages = map[Status]string{
	StatusApproved:     "Your return request for order %s has been approved. The seller will process your refund.",
	StatusRejected:     "Your return request for order %s has been rejected.",
	StatusRefundIssued: "A refund for your return on order %s has been issued.",
	StatusCompleted:    "Your return for order %s is complete.",
}

var buyerTitles = map[Status]string{
	StatusApproved:     "Return Approved",
	StatusRejected:     "Return Rejected",
	StatusRefundIssued: "Refund Issued",
	StatusCompleted:    "Return Completed",
}

// BuyerMessage returns the title and message sent to the customer on entering status.
func BuyerMessage(status Status, orderNo string) (string, string, bool) {
	msg, ok := buyerMessages[status]
	if !ok {
		return "", "", false
	}
	return buyerTitles[status], fmt.Sprintf(msg, orderNo), true
}

// SellerApprovalMessage is sent to the seller when an admin approves a return.
func SellerApprovalMessage(orderNo string) (string, string) {
	return "Return Needs Refund", fmt.Sprintf("A return on order %s was approved. Please process the refund.", orderNo)
}
