package httpserver

import (
	"royalwood-storefront/internal/notify"
	"royalwood-storefront/internal/service/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCtxKey = "storefront.session"
)

// sessionMiddleware resolves X-Session-ID, issuing a new id when absent, and
// echoes it on the response.
func sessionMiddleware(sessions SessionProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id = sessions.Issue()
		}
		sess, err := sessions.Get(id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Header(sessionHeader, sess.ID)
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, _ := c.Get(sessionCtxKey)
	sess, _ := v.(*session.Session)
	return sess
}

func notices(c *gin.Context) []notify.Notification {
	if sess := currentSession(c); sess != nil {
		return sess.Notices.Drain()
	}
	return []notify.Notification{}
}

// respond writes body under "data" together with the session's pending notifications.
func respond(c *gin.Context, status int, body any) {
	c.JSON(status, gin.H{
		"data":          body,
		"notifications": notices(c),
	})
}

// fail writes err with its mapped status together with pending notifications.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	payload := errorPayload(err, status)
	body := gin.H{
		"error":         payload.Error,
		"notifications": notices(c),
	}
	if payload.Field != "" {
		body["field"] = payload.Field
	}
	c.JSON(status, body)
}

func notifySession(c *gin.Context, message string, severity notify.Severity) {
	if sess := currentSession(c); sess != nil {
		sess.Notices.Notify(c.Request.Context(), message, severity)
	}
}
