package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout   = "layout.html"
	TemplateBlog     = "blog.html"
	TemplateArticles = "articles.html"
	TemplatePost     = "post.html"
)
