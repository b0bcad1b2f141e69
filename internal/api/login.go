package api

import (
	"errors"
	"net/http"

	"github.com/myaxum/myaxum/internal/service"
)

const loginFormHTML = `<form method="post" action="">
<label><span>ID:</span><input type="text" name="login_id" /></label>
<br /><label><span>Password:</span><input type="password" name="password" /></label>
<br /><input type="submit" name="submit" value="SUBMIT" />
</form>`

func (s *Server) handleLoginForm(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, http.StatusOK, loginFormHTML)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	info := service.LoginInfo{
		LoginID:  r.PostForm.Get("login_id"),
		Password: r.PostForm.Get("password"),
	}
	if err := s.userSvc.Login(r.Context(), info); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process login")
		return
	}
	writeHTML(w, http.StatusOK, "OK")
}
