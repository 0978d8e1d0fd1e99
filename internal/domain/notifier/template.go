package notifier

import "html/template"

var referralTemplate = template.Must(template.New("referral").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>New idea shared with you</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>You received an idea</h1>
    <p>{{.ReferrerName}} thought you would love this idea.</p>
    <div style="background: #fff; padding: 20px; border-left: 4px solid #667eea;">
      <h2>{{.Title}}</h2>
      <p>{{.Description}}</p>
    </div>
    <ol>
      <li>Open the link below to view the full idea.</li>
      <li>If you love it, share it with the people you know.</li>
    </ol>
    <p style="text-align: center;"><a href="{{.Link}}">View idea and join the chain</a></p>
    <p style="text-align: center; color: #666; font-size: 12px;">Sent through {{.AppName}}.</p>
  </div>
</body>
</html>
`))

type referralData struct {
	AppName      string
	ReferrerName string
	Title        string
	Description  string
	Link         string
}
