package waitlist

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// User-facing copy shown in the toast.
const (
	MessageEmailRequired = "Please enter your email address"
	MessageJoined        = "You've been added to the waitlist! We'll notify you when Noctura is ready."
	MessageFailed        = "Something went wrong. Please try again."
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

func SuccessNotification() Notification {
	return Notification{Kind: NotificationSuccess, Message: MessageJoined}
}

func ErrorNotification(message string) Notification {
	return Notification{Kind: NotificationError, Message: message}
}

func (n Notification) IsZero() bool {
	return n.Kind == "" && n.Message == ""
}

func (n Notification) IsSuccess() bool {
	return n.Kind == NotificationSuccess
}
