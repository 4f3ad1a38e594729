package cmd

const DESCRIPTION = `
cookiejar keeps HTTP cookies between runs. It stores the cookies a
server sets, builds the Cookie header for later requests to the same
site, imports cookies from browser profiles and serves the jar to other
programs over JSON-RPC.
`

const (
	ParseDescription = `The parse command reads a Set-Cookie style value and prints
the cookie in canonical form, with the defaults filled in. The jar
is not touched.

Example:
        cookiejar parse "sid=abc; Domain=example.com; Secure"

`
	SetDescription = `The set command parses a Set-Cookie style value and stores
the cookie in the jar, replacing a cookie with the same name, domain
and path. Cookies that are already expired are not stored.

Example:
        cookiejar set --url https://example.com/app "sid=abc; HttpOnly"

`
	ListDescription = `The list command displays the unexpired cookies in the jar.
With --domain and --path only the cookies of exactly that scope are
shown; --fuzzy shows every cookie a request to that scope would see.

Example:
        cookiejar list --domain www.example.com --path /app --fuzzy

`
	HeaderDescription = `The header command prints the Cookie header value that would
be sent with a request to the given url.

Example:
        cookiejar header https://www.example.com/app

`
	RemoveDescription = `The remove command deletes the cookie with the given name,
domain and path from the jar.

Example:
        cookiejar remove --domain example.com --path / sid

`
	ClearDescription = `The clear command deletes every cookie from the jar.

Example:
        cookiejar clear

`
	ImportDescription = `The import command reads cookies from a Firefox or Chrome
cookie database or a Netscape cookies.txt file and merges them into
the jar. With --browser the first browser profile found is used
instead of a file. Use --domain to import a single site.

Example:
        cookiejar import --domain example.com ~/.mozilla/firefox/x.default/cookies.sqlite
        cookiejar import --browser --domain example.com

`
	ExportDescription = `The export command writes the jar to stdout or to a file,
either in the jar's own line format or as a Netscape cookies.txt file.

Example:
        cookiejar export --netscape --output cookies.txt

`
	FetchDescription = `The fetch command makes a GET request to the url, sending and
storing cookies through the jar. The jar is saved when the request
completes. Use --debug to log the cookie names sent and received.

Example:
        cookiejar fetch --output page.html https://example.com/

`
	ServeDescription = `The serve command exposes the jar over JSON-RPC, on HTTP at
/jsonrpc and on WebSocket at /jsonrpc/ws. Clients must send the
secret as a bearer token. Changes are saved to the jar file.

Example:
        cookiejar serve --listen 127.0.0.1:8089 --secret s3cret

`
	ConfigDescription = `The config command prints the effective configuration as
YAML, with secrets redacted.

Example:
        cookiejar config

`
)
